package feeder

import "strings"

// WiFiAck is one success signal the firmware may put in a /config-wifi reply.
// Firmware variants disagree on the shape, so a reply is classified into every
// variant it carries and Succeeded decides over all of them.
type WiFiAck interface {
	wifiAck()
}

// AckFlag is a boolean "success" field.
type AckFlag struct{ Value bool }

// AckStatus is a "status" string field.
type AckStatus struct{ Value string }

// AckMessage is a free-text "message" field.
type AckMessage struct{ Text string }

func (AckFlag) wifiAck()    {}
func (AckStatus) wifiAck()  {}
func (AckMessage) wifiAck() {}

type wifiAckPayload struct {
	Success *bool   `json:"success"`
	Status  *string `json:"status"`
	Message *string `json:"message"`
	IP      *string `json:"ip"`
}

// classifyWiFiAck lists the variants present in a decoded reply.
func classifyWiFiAck(p wifiAckPayload) []WiFiAck {
	var acks []WiFiAck
	if p.Success != nil {
		acks = append(acks, AckFlag{Value: *p.Success})
	}
	if p.Status != nil {
		acks = append(acks, AckStatus{Value: *p.Status})
	}
	if p.Message != nil {
		acks = append(acks, AckMessage{Text: *p.Message})
	}
	return acks
}

const successKeyword = "sucesso"

// Succeeded reports whether any variant signals success.
func Succeeded(acks []WiFiAck) bool {
	for _, ack := range acks {
		switch a := ack.(type) {
		case AckFlag:
			if a.Value {
				return true
			}
		case AckStatus:
			switch strings.ToLower(strings.TrimSpace(a.Value)) {
			case "success", "ok":
				return true
			}
		case AckMessage:
			if strings.Contains(strings.ToLower(a.Text), successKeyword) {
				return true
			}
		default:
			panic("feeder: unhandled WiFiAck variant")
		}
	}
	return false
}

// WiFiConfigResult is the normalized outcome of ConfigureWiFi.
type WiFiConfigResult struct {
	Success bool
	Status  string
	IP      string
	Message string
	Acks    []WiFiAck
}

func newWiFiConfigResult(p wifiAckPayload) WiFiConfigResult {
	acks := classifyWiFiAck(p)
	res := WiFiConfigResult{Success: Succeeded(acks), Acks: acks}
	if p.Status != nil {
		res.Status = *p.Status
	}
	if p.IP != nil {
		res.IP = strings.TrimSpace(*p.IP)
	}
	if p.Message != nil {
		res.Message = *p.Message
	}
	return res
}
