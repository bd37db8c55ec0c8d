// Package feeder provides an HTTP client for the fish feeder's REST API.
//
// # Overview
//
// The feeder exposes a small JSON API from its firmware. Before it knows any
// WiFi credentials it runs its own access point and answers on
// http://192.168.4.1; afterwards it joins the home network and advertises
// itself as http://alimentador.local. Client knows both base URLs and picks
// the right one per operation:
//
//   - Access point: ScanWiFi, ConfigureWiFi, ProbeAccessPoint
//   - Home network: Status, Feed, UpdateConfig, schedules, History, Statistics
//   - Either (by Mode): NetworkInfo, Ping
//
// # Request Handling
//
// All requests:
//   - Carry Content-Type: application/json and a koi User-Agent
//   - Are bounded by a single timeout (10 seconds by default)
//   - Are issued exactly once; the client never retries
//   - Are never cached
//
// # Error Handling
//
// Every failure, whether the device is unreachable, too slow, answers with an
// HTTP error or sends a body that is not JSON, comes back as *OpError. The
// error matches ErrOperationFailed through errors.Is and carries a localized
// Message suitable for showing to the user. The cause is logged and kept in
// Err, but callers are not expected to branch on it.
//
//	status, err := client.Status(ctx)
//	if err != nil {
//		notify.Error("Erro", feeder.UserMessage(err, "Falha"))
//		return
//	}
//
// # WiFi Acknowledgements
//
// Firmware variants acknowledge /config-wifi differently: some send a
// "success" boolean, some a "status" of "success" or "ok", some only a
// human-readable "message". ConfigureWiFi classifies the reply into WiFiAck
// variants (AckFlag, AckStatus, AckMessage) and Succeeded folds them into a
// single outcome. A reply with none of the recognized signals is reported as
// unsuccessful, not as an error.
//
// # Wire Names
//
// The device speaks Portuguese on the wire (hora, minuto, ativo, agendamentos,
// historico...). Go types use English field names with json tags carrying the
// device spelling.
package feeder
