package feeder

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSignalStrength(t *testing.T) {
	cases := []struct {
		rssi  int
		label string
		bars  int
	}{
		{-40, "Excelente", 4},
		{-50, "Excelente", 4},
		{-55, "Bom", 3},
		{-65, "Regular", 2},
		{-70, "Regular", 2},
		{-90, "Fraco", 1},
	}
	for _, tc := range cases {
		got := SignalStrength(tc.rssi)
		if got.Label != tc.label || got.Bars != tc.bars {
			t.Fatalf("SignalStrength(%d) = %#v, want %s/%d", tc.rssi, got, tc.label, tc.bars)
		}
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := FormatTime(8, 0); got != "08:00" {
		t.Fatalf("FormatTime(8, 0) = %q, want 08:00", got)
	}
	if got := FormatTime(18, 30); got != "18:30" {
		t.Fatalf("FormatTime(18, 30) = %q, want 18:30", got)
	}
	ts := time.Date(2025, 3, 9, 7, 5, 0, 0, time.UTC).Unix()
	if got := FormatTimestamp(ts, time.UTC); got != "09/03 07:05" {
		t.Fatalf("FormatTimestamp = %q, want 09/03 07:05", got)
	}
}

func TestRefillType(t *testing.T) {
	if !RefillBoth.Valid() || RefillType("x").Valid() {
		t.Fatalf("Valid mismatch")
	}
	if RefillLeft.Label() != "Esquerdo" || RefillRight.Label() != "Direito" || RefillBoth.Label() != "Ambos" {
		t.Fatalf("Label mismatch")
	}
	if RefillBoth.Next() != RefillLeft || RefillRight.Next() != RefillBoth || RefillType("").Next() != RefillBoth {
		t.Fatalf("Next does not cycle through RefillTypes")
	}
}

func TestDeviceStatusClone(t *testing.T) {
	var nilStatus *DeviceStatus
	if nilStatus.Clone() != nil {
		t.Fatalf("Clone of nil should be nil")
	}
	s := &DeviceStatus{Schedules: []Schedule{{ID: 1}}}
	dup := s.Clone()
	dup.Schedules[0].ID = 99
	if s.Schedules[0].ID != 1 {
		t.Fatalf("Clone shares schedules with original")
	}
}

func TestDeviceStatusDecode(t *testing.T) {
	raw := `{
  "deviceId": "AF-01",
  "deviceName": "Aquario",
  "ip": "192.168.1.40",
  "horaAtual": "14:03:22",
  "refills": {"refill1": {"nome": "Tetra TetraMin", "quantidade": 1}, "refill2": {"nome": "Alcon Basic", "quantidade": 2}},
  "estatisticas": {"alimentacoesHoje": 1, "alimentacoesSemana": 9, "totalHistorico": 40},
  "totalAgendamentos": 2,
  "maxAgendamentos": 10,
  "agendamentos": [
    {"id": 1, "hora": 8, "minuto": 0, "refill": "ambos", "ativo": true},
    {"id": 2, "hora": 18, "minuto": 30, "refill": "refill1", "ativo": false, "usarIntervalo": true, "intervaloHoras": 6}
  ]
}`
	var status DeviceStatus
	if err := json.Unmarshal([]byte(raw), &status); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if status.Refills.Refill2.Name != "Alcon Basic" || status.Stats.Week != 9 || status.MaxSchedules != 10 {
		t.Fatalf("status = %#v, want nested fields decoded", status)
	}
	if !status.Schedules[1].UseInterval || status.Schedules[1].IntervalHours != 6 {
		t.Fatalf("schedule 2 = %#v, want interval 6h", status.Schedules[1])
	}
}

func TestConfigUpdateEmpty(t *testing.T) {
	if !(ConfigUpdate{}).Empty() {
		t.Fatalf("zero ConfigUpdate should be empty")
	}
	q := 2
	if (ConfigUpdate{Refill2Quantity: &q}).Empty() {
		t.Fatalf("ConfigUpdate with quantity should not be empty")
	}
}

func TestPatchFrom_CarriesAllFields(t *testing.T) {
	p := PatchFrom(Schedule{ID: 3, Hour: 7, Minute: 45, Refill: RefillRight, Active: true})
	encoded, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var body map[string]any
	_ = json.Unmarshal(encoded, &body)
	if _, hasID := body["id"]; hasID {
		t.Fatalf("patch body = %v, want no id", body)
	}
	if body["hora"] != float64(7) || body["refill"] != "refill2" || body["ativo"] != true {
		t.Fatalf("patch body = %v, want hora=7 refill=refill2 ativo=true", body)
	}
}
