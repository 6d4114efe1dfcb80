package repository_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TuSKan/go-geometry/repository"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     repository.Config
		wantErr bool
	}{
		{"defaults", repository.DefaultConfig(), false},
		{"single shard", repository.Config{MaxWeight: 10, Concurrency: 1}, false},
		{"no shards", repository.Config{MaxWeight: 10, Concurrency: 0}, true},
		{"budget below shard count", repository.Config{MaxWeight: 3, Concurrency: 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := repository.LoadConfig(strings.NewReader("max_weight: 1000\n"))
	require.NoError(t, err)
	require.Equal(t, repository.Config{MaxWeight: 1000, Concurrency: repository.DefaultConcurrency}, cfg)

	cfg, err = repository.LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, repository.DefaultConfig(), cfg)

	_, err = repository.LoadConfig(strings.NewReader("concurrency: 0\n"))
	require.Error(t, err)

	_, err = repository.LoadConfig(strings.NewReader("max_weight: [1, 2]\n"))
	require.Error(t, err)
}
