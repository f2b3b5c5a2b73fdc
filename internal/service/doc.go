// Package service coordinates fixture loading for the CLI and HTTP layers.
//
// FixtureService owns the store, the demo schema and the loader settings. It
// serializes schema resets and loads, since a Loader and its store are not
// safe for concurrent use, and publishes an Event on the EventBus after each
// one so connected clients can follow along over Server-Sent Events.
package service
