// Package util provides helpers shared by the end-to-end tests.
package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	HealthTimeout         = 5 * time.Second
	MosquittoReadyTimeout = 10 * time.Second
	MetricTimeout         = 5 * time.Second

	pollInterval = 50 * time.Millisecond
)

const mosquittoConf = `listener 1883
allow_anonymous true
persistence false
log_dest stdout
log_type error
log_type warning
`

// poll issues GET url until accept returns true or ctx is done.
func poll(ctx context.Context, url string, accept func(status int, body []byte) bool) error {
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		if resp, err := http.DefaultClient.Do(req); err == nil {
			body, rerr := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if rerr == nil && accept(resp.StatusCode, body) {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// WaitForHealth waits until baseURL/healthz answers 200.
func WaitForHealth(ctx context.Context, baseURL string) error {
	err := poll(ctx, strings.TrimSuffix(baseURL, "/")+"/healthz", func(status int, _ []byte) bool {
		return status == http.StatusOK
	})
	if err != nil {
		return fmt.Errorf("server not ready: %w", err)
	}
	return nil
}

// WaitForMetric waits until the exposition at metricsURL contains substr.
func WaitForMetric(ctx context.Context, metricsURL, substr string) error {
	err := poll(ctx, metricsURL, func(status int, body []byte) bool {
		return status == http.StatusOK && strings.Contains(string(body), substr)
	})
	if err != nil {
		return fmt.Errorf("metric %q not found: %w", substr, err)
	}
	return nil
}

// StartMosquitto runs a disposable Mosquitto broker and returns its URL.
// The test is skipped when no container runtime is available. The broker
// is terminated when the test ends.
func StartMosquitto(t testing.TB) string {
	t.Helper()
	ctx := context.Background()

	conf := filepath.Join(t.TempDir(), "mosquitto.conf")
	if err := os.WriteFile(conf, []byte(mosquittoConf), 0o644); err != nil {
		t.Fatalf("write mosquitto.conf: %v", err)
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "eclipse-mosquitto:2.0",
			ExposedPorts: []string{"1883/tcp"},
			WaitingFor:   wait.ForListeningPort("1883/tcp"),
			Files: []tc.ContainerFile{{
				HostFilePath:      conf,
				ContainerFilePath: "/mosquitto/config/mosquitto.conf",
				FileMode:          0o644,
			}},
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("mosquitto container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = cont.Terminate(context.Background()) })

	host, err := cont.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := cont.MappedPort(ctx, "1883")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	broker := fmt.Sprintf("tcp://%s:%s", host, port.Port())

	readyCtx, cancel := context.WithTimeout(ctx, MosquittoReadyTimeout)
	defer cancel()
	if err := waitForBroker(readyCtx, broker); err != nil {
		t.Fatalf("mosquitto not ready: %v", err)
	}
	return broker
}

func waitForBroker(ctx context.Context, broker string) error {
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID("probe")
	for {
		cli := paho.NewClient(opts)
		token := cli.Connect()
		if token.WaitTimeout(time.Second) && token.Error() == nil {
			cli.Disconnect(100)
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}
