package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTimeoutConfig(t *testing.T) {
	config := DefaultTimeoutConfig()

	assert.Greater(t, config.HTTPHandler, config.PagoPAProxy)
	assert.Greater(t, config.PagoPAProxy, config.Recaptcha)
	assert.Equal(t, 30*time.Second, config.PagoPAProxy)
	assert.NoError(t, config.Validate())
}

func TestTestTimeoutConfig(t *testing.T) {
	config := TestTimeoutConfig()

	assert.Less(t, config.HTTPHandler, 10*time.Second)
	assert.NoError(t, config.Validate())
}

func TestValidate(t *testing.T) {
	config := DefaultTimeoutConfig()
	config.PagoPAProxy = config.HTTPHandler
	assert.ErrorContains(t, config.Validate(), "pagoPA proxy timeout")

	config = DefaultTimeoutConfig()
	config.Recaptcha = 0
	assert.ErrorContains(t, config.Validate(), "recaptcha timeout must be positive")
}

func TestContextCreators(t *testing.T) {
	config := DefaultTimeoutConfig()

	tests := []struct {
		name    string
		creator func(context.Context) (context.Context, context.CancelFunc)
		timeout time.Duration
	}{
		{"HandlerContext", config.HandlerContext, config.HTTPHandler},
		{"ProxyContext", config.ProxyContext, config.PagoPAProxy},
		{"RecaptchaContext", config.RecaptchaContext, config.Recaptcha},
		{"HealthProbeContext", config.HealthProbeContext, config.HealthProbe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.creator(context.Background())
			defer cancel()

			deadline, ok := ctx.Deadline()
			require.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(tt.timeout), deadline, 100*time.Millisecond)
		})
	}
}

func TestParentDeadlineWins(t *testing.T) {
	config := DefaultTimeoutConfig()

	parent, parentCancel := context.WithTimeout(context.Background(), time.Second)
	defer parentCancel()

	child, childCancel := config.HandlerContext(parent)
	defer childCancel()

	parentDeadline, _ := parent.Deadline()
	childDeadline, _ := child.Deadline()
	assert.False(t, childDeadline.After(parentDeadline))
}

func TestContextTimeout(t *testing.T) {
	config := TestTimeoutConfig()
	config.PagoPAProxy = 50 * time.Millisecond

	ctx, cancel := config.ProxyContext(context.Background())
	defer cancel()

	select {
	case <-ctx.Done():
		assert.ErrorIs(t, ctx.Err(), context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("proxy context did not time out")
	}
}
