package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBackend(t *testing.T) {
	tests := []struct {
		name    string
		device  Device
		threads int
		wantErr error
	}{
		{name: "cpu", device: DeviceCPU, threads: 4},
		{name: "coreml", device: DeviceCoreML, threads: 1},
		{name: "cuda", device: DeviceCUDA, threads: 8},
		{name: "zero threads", device: DeviceCPU, threads: 0, wantErr: ErrInvalidConfig},
		{name: "negative threads", device: DeviceCPU, threads: -1, wantErr: ErrInvalidConfig},
		{name: "unknown device", device: Device(99), threads: 2, wantErr: ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := resolveBackend(tt.device, tt.threads)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.device, cfg.device)
			assert.Equal(t, tt.threads, cfg.numThreads)
		})
	}
}

func TestParseDevice(t *testing.T) {
	for name, want := range map[string]Device{
		"cpu":    DeviceCPU,
		"coreml": DeviceCoreML,
		"cuda":   DeviceCUDA,
	} {
		got, err := ParseDevice(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, name, got.String())
	}

	_, err := ParseDevice("npu")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
