package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInitIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(PaymentRequestsCreated.WithLabelValues("STANDARD"))
	PaymentRequestsCreated.WithLabelValues("STANDARD").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(PaymentRequestsCreated.WithLabelValues("STANDARD")))
}
