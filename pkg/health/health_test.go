package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCheck struct {
	name      string
	err       error
	sleepTime time.Duration
}

func (m *mockCheck) Name() string { return m.name }

func (m *mockCheck) Check(ctx context.Context) error {
	if m.sleepTime > 0 {
		select {
		case <-time.After(m.sleepTime):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return m.err
}

func TestNewOptions(t *testing.T) {
	h := New()
	assert.Equal(t, 5*time.Second, h.timeout)
	assert.Equal(t, 3, h.failureThreshold)

	h = New(WithTimeout(time.Second), WithFailureThreshold(2))
	assert.Equal(t, time.Second, h.timeout)
	assert.Equal(t, 2, h.failureThreshold)

	h = New(WithTimeout(0), WithFailureThreshold(0))
	assert.Equal(t, 5*time.Second, h.timeout)
	assert.Equal(t, 3, h.failureThreshold)
}

func TestCheckFunc(t *testing.T) {
	want := errors.New("catalog unavailable")
	check := NewCheckFunc("catalog", func(context.Context) error { return want })

	assert.Equal(t, "catalog", check.Name())
	assert.Equal(t, want, check.Check(context.Background()))
}

func TestHealthChecker(t *testing.T) {
	tests := []struct {
		name        string
		threshold   int
		checks      []Check
		wantHealthy bool
	}{
		{name: "no checks is healthy", threshold: 1, wantHealthy: true},
		{
			name:        "all passing",
			threshold:   1,
			checks:      []Check{&mockCheck{name: "database"}, &mockCheck{name: "redis"}},
			wantHealthy: true,
		},
		{
			name:        "one failing",
			threshold:   1,
			checks:      []Check{&mockCheck{name: "database"}, &mockCheck{name: "redis", err: errors.New("refused")}},
			wantHealthy: false,
		},
		{
			name:        "failure below threshold still healthy",
			threshold:   3,
			checks:      []Check{&mockCheck{name: "redis", err: errors.New("refused")}},
			wantHealthy: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(WithFailureThreshold(tt.threshold))
			for _, c := range tt.checks {
				h.AddReadinessCheck(c)
			}

			status, err := h.CheckReadiness(context.Background())
			assert.Equal(t, tt.wantHealthy, status.Healthy)
			assert.Len(t, status.Checks, len(tt.checks))
			if tt.wantHealthy {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, "health checks failed")
			}
		})
	}
}

func TestFailureThresholdResetsOnSuccess(t *testing.T) {
	check := &mockCheck{name: "database", err: errors.New("down")}
	h := New(WithFailureThreshold(2))
	h.AddLivenessCheck(check)

	status, _ := h.CheckLiveness(context.Background())
	assert.True(t, status.Healthy, "first failure is tolerated")

	status, err := h.CheckLiveness(context.Background())
	require.Error(t, err)
	assert.False(t, status.Healthy)
	assert.Equal(t, "down", status.Checks[0].Error)

	check.err = nil
	status, err = h.CheckLiveness(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Healthy)

	check.err = errors.New("down again")
	status, _ = h.CheckLiveness(context.Background())
	assert.True(t, status.Healthy, "counter was reset by the success")
}

func TestCheckTimeout(t *testing.T) {
	h := New(WithTimeout(20*time.Millisecond), WithFailureThreshold(1))
	h.AddReadinessCheck(&mockCheck{name: "slow", sleepTime: time.Second})

	start := time.Now()
	status, err := h.CheckReadiness(context.Background())

	require.Error(t, err)
	assert.False(t, status.Healthy)
	assert.Contains(t, status.Checks[0].Error, context.DeadlineExceeded.Error())
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}
