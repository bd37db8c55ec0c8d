package feeder

import "testing"

func TestSucceeded_Variants(t *testing.T) {
	cases := []struct {
		name string
		acks []WiFiAck
		want bool
	}{
		{"none", nil, false},
		{"flag true", []WiFiAck{AckFlag{Value: true}}, true},
		{"flag false", []WiFiAck{AckFlag{Value: false}}, false},
		{"status ok", []WiFiAck{AckStatus{Value: "ok"}}, true},
		{"status padded upper", []WiFiAck{AckStatus{Value: " SUCCESS "}}, true},
		{"status error", []WiFiAck{AckStatus{Value: "error"}}, false},
		{"message keyword", []WiFiAck{AckMessage{Text: "WiFi configurado com SUCESSO"}}, true},
		{"message without keyword", []WiFiAck{AckMessage{Text: "Falha"}}, false},
		{"error status but flag true", []WiFiAck{AckFlag{Value: true}, AckStatus{Value: "error"}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Succeeded(tc.acks); got != tc.want {
				t.Fatalf("Succeeded(%#v) = %v, want %v", tc.acks, got, tc.want)
			}
		})
	}
}

func TestClassifyWiFiAck_KeepsOrderAndPresence(t *testing.T) {
	ok := true
	status := "ok"
	acks := classifyWiFiAck(wifiAckPayload{Success: &ok, Status: &status})
	if len(acks) != 2 {
		t.Fatalf("acks = %#v, want 2 variants", acks)
	}
	if _, isFlag := acks[0].(AckFlag); !isFlag {
		t.Fatalf("acks[0] = %T, want AckFlag", acks[0])
	}
	if _, isStatus := acks[1].(AckStatus); !isStatus {
		t.Fatalf("acks[1] = %T, want AckStatus", acks[1])
	}
	if got := classifyWiFiAck(wifiAckPayload{}); len(got) != 0 {
		t.Fatalf("classifyWiFiAck(empty) = %#v, want none", got)
	}
}
