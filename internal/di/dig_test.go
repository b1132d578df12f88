package di

import (
	"bytes"
	"testing"

	"github.com/savaki/bucket-hardener/internal/customresource"
	"github.com/savaki/bucket-hardener/internal/policy"
	"github.com/savaki/bucket-hardener/internal/provision"
	"github.com/savaki/bucket-hardener/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// offline keeps the AWS config loader away from the developer's profile
func offline(t *testing.T) {
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_CONFIG_FILE", "/dev/null")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/dev/null")
}

func TestNew_ResolvesHandler(t *testing.T) {
	offline(t)
	t.Setenv("DISABLE_SSM", "true")

	container, err := New("dev")
	require.NoError(t, err)

	handler := MustGet[*provision.Handler](container)
	assert.NotNil(t, handler)

	_, ok := MustGet[customresource.Responder](container).(*customresource.HTTPResponder)
	assert.True(t, ok, "expected HTTP responder without an output override")

	_, ok = MustGet[services.ParameterStore](container).(*services.EnvParameterStore)
	assert.True(t, ok, "expected env parameter store when SSM is disabled")
}

func TestNew_UsesSSMByDefault(t *testing.T) {
	offline(t)
	t.Setenv("DISABLE_SSM", "")

	container, err := New("prod")
	require.NoError(t, err)

	_, ok := MustGet[services.ParameterStore](container).(*services.SSMParameterStore)
	assert.True(t, ok, "expected SSM parameter store")
}

func TestWithOutput(t *testing.T) {
	offline(t)

	var buf bytes.Buffer
	container, err := New("dev", WithOutput(&buf))
	require.NoError(t, err)

	_, ok := MustGet[customresource.Responder](container).(*customresource.WriterResponder)
	assert.True(t, ok, "expected writer responder with an output override")
}

func TestWithAppIDAndEndpoint(t *testing.T) {
	offline(t)

	container, err := New("dev", WithAppID("custom"), WithEndpoint("http://localhost:4566"))
	require.NoError(t, err)

	assert.Equal(t, AppID("custom"), MustGet[AppID](container))
	assert.Equal(t, Endpoint("http://localhost:4566"), MustGet[Endpoint](container))
}

func TestNew_DefaultAppID(t *testing.T) {
	container, err := New("dev")
	require.NoError(t, err)

	assert.Equal(t, AppID("team-idc"), MustGet[AppID](container))
}

func TestNew_ProvidesEnvironment(t *testing.T) {
	container, err := New("test-env")
	require.NoError(t, err)

	assert.Equal(t, "test-env", MustGet[string](container))
}

func TestNew_DuplicateProvider(t *testing.T) {
	_, err := New("dev",
		WithProviders(func() *policy.Validator { return nil }),
	)
	assert.Error(t, err, "providing a core type twice should fail")
}

func TestMustGet_PanicsWhenMissing(t *testing.T) {
	type unknown struct{}

	container, err := New("dev")
	require.NoError(t, err)

	assert.Panics(t, func() {
		_ = MustGet[*unknown](container)
	})
}

func TestWithProviders(t *testing.T) {
	type greeting string

	container, err := New("dev",
		WithProviders(
			func(env string) greeting { return greeting("hello " + env) },
		),
	)
	require.NoError(t, err)

	assert.Equal(t, greeting("hello dev"), MustGet[greeting](container))
}
