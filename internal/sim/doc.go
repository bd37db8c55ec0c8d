// Package sim is an in-memory fish feeder that speaks the device HTTP
// contract. It backs the koisim binary and the client integration tests.
//
// The Device keeps schedules, feeding history and network state behind a
// mutex; RegisterRoutes exposes it over gin with a per-client rate limit and
// Swagger UI under /docs. The WiFi acknowledgement shape is configurable so
// every firmware variant the client tolerates can be reproduced.
package sim
