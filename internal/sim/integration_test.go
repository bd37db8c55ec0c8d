package sim_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/koi/internal/feeder"
	"github.com/five82/koi/internal/sim"
	_ "github.com/five82/koi/internal/sim/docs"
)

func startFeeder(t *testing.T, opts sim.Options) (*feeder.Client, *sim.Device, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dev := sim.NewDevice(opts)
	srv := httptest.NewServer(sim.NewRouter(dev))
	t.Cleanup(srv.Close)

	client, err := feeder.NewClient(feeder.Options{
		APBaseURL:     srv.URL,
		DeviceBaseURL: srv.URL,
		Timeout:       2 * time.Second,
	})
	require.NoError(t, err)
	return client, dev, srv
}

func TestClientSetupAgainstSimulator(t *testing.T) {
	for _, shape := range []sim.AckShape{sim.AckSuccess, sim.AckStatus, sim.AckMessage} {
		t.Run(string(shape), func(t *testing.T) {
			client, _, _ := startFeeder(t, sim.Options{WiFiAck: shape})
			ctx := context.Background()

			require.NoError(t, client.ProbeAccessPoint(ctx))

			networks, err := client.ScanWiFi(ctx)
			require.NoError(t, err)
			require.NotEmpty(t, networks)

			res, err := client.ConfigureWiFi(ctx, networks[0].SSID, "segredo")
			require.NoError(t, err)
			assert.True(t, res.Success)
			assert.Equal(t, "192.168.1.50", res.IP)

			info, err := client.NetworkInfo(ctx, feeder.ModeDevice)
			require.NoError(t, err)
			assert.False(t, info.APMode)
		})
	}
}

func TestClientWiFiRejectedAgainstSimulator(t *testing.T) {
	client, _, _ := startFeeder(t, sim.Options{WiFiAck: sim.AckError})
	res, err := client.ConfigureWiFi(context.Background(), "CasaAquario", "errada")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Falha")
}

func TestClientScheduleLifecycleAgainstSimulator(t *testing.T) {
	client, _, _ := startFeeder(t, sim.Options{})
	ctx := context.Background()

	created, err := client.CreateSchedule(ctx, feeder.ScheduleInput{Hour: 18, Minute: 30, Refill: feeder.RefillLeft, Active: false})
	require.NoError(t, err)
	_, err = client.CreateSchedule(ctx, feeder.ScheduleInput{Hour: 8, Minute: 0, Refill: feeder.RefillBoth, Active: true})
	require.NoError(t, err)

	list, err := client.Schedules(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "08:00", list[0].TimeLabel())

	s, err := client.Schedule(ctx, created.ID)
	require.NoError(t, err)
	s.Active = true
	_, err = client.UpdateSchedule(ctx, created.ID, feeder.PatchFrom(s))
	require.NoError(t, err)

	list, err = client.Schedules(ctx)
	require.NoError(t, err)
	assert.True(t, list[1].Active)

	_, err = client.CreateSchedule(ctx, feeder.ScheduleInput{Hour: 30, Refill: feeder.RefillBoth})
	assert.ErrorIs(t, err, feeder.ErrOperationFailed)

	del, err := client.DeleteSchedule(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, del.Total)

	_, err = client.DeleteSchedule(ctx, created.ID)
	assert.ErrorIs(t, err, feeder.ErrOperationFailed)
}

func TestClientFeedAndHistoryAgainstSimulator(t *testing.T) {
	client, _, _ := startFeeder(t, sim.Options{})
	ctx := context.Background()

	name := "Tetra Color"
	_, err := client.UpdateConfig(ctx, feeder.ConfigUpdate{Refill2Name: &name})
	require.NoError(t, err)

	_, err = client.Feed(ctx, feeder.RefillRight)
	require.NoError(t, err)

	history, err := client.History(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, history.Total)
	assert.Equal(t, feeder.RefillRight, history.Entries[0].Refill)

	stats, err := client.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ByRefill.Refill2)

	status, err := client.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Tetra Color", status.Refills.Refill2.Name)
	assert.Equal(t, 1, status.Stats.Today)
}

func TestSwaggerDocsServed(t *testing.T) {
	_, _, srv := startFeeder(t, sim.Options{})
	resp, err := http.Get(srv.URL + "/docs/doc.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
