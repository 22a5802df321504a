package tracing

import (
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracer_DisabledIsNoop(t *testing.T) {
	tracer, closer, err := InitTracer(Config{})
	require.NoError(t, err)
	assert.IsType(t, opentracing.NoopTracer{}, tracer)
	assert.IsType(t, opentracing.NoopTracer{}, opentracing.GlobalTracer())
	closer()
}

func TestConfig_Enabled(t *testing.T) {
	assert.False(t, Config{Host: "localhost"}.Enabled())
	assert.False(t, Config{Port: 6831}.Enabled())
	assert.True(t, Config{Host: "localhost", Port: 6831}.Enabled())
}

func TestSetServiceName(t *testing.T) {
	old := SetServiceName("hype-signal")
	t.Cleanup(func() { SetServiceName(old) })
	assert.Equal(t, "hype-signal", serviceName)
}
