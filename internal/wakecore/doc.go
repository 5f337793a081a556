// Package wakecore implements the real-time acquisition and dispatch core of
// the wake-word detector: the handoff between the hardware-paced capture
// context and the single processing task.
//
// # Architecture Overview
//
//	Source -> FrameExchange -> Notifier -> TaskLoop -> Application -> State
//
// The capture side fills fixed-size frames and publishes them through a
// FrameExchange, then signals a Notifier. The TaskLoop blocks on the Notifier
// with a bounded timeout and delivers exactly one Application tick per wakeup,
// no matter how many signals coalesced while it ran. The Application owns a
// single live State with an explicit enter/run/exit lifecycle.
//
// # Concurrency and Thread Safety
//
// Two execution contexts touch this package concurrently: the capture
// callback (producer) and the processing task (consumer). The producer path
// never blocks. FrameExchange.Publish and Notifier.Signal are safe to call
// from the capture callback; everything else belongs to the processing task.
//
// The overrun policy is overwrite-oldest: when the consumer falls behind, the
// newest completed frame always replaces the unread one and the displaced
// frame is counted, never silently lost to an unordered race.
package wakecore
