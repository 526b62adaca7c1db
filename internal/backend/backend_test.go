package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/bbcarchdev/patchwork/internal/config"
	"github.com/bbcarchdev/patchwork/internal/domain"
	"github.com/bbcarchdev/patchwork/internal/domain/identifier"
	"github.com/bbcarchdev/patchwork/internal/domain/request"
	"github.com/bbcarchdev/patchwork/internal/repository/relational"
	"github.com/bbcarchdev/patchwork/internal/repository/sparql"
	"github.com/bbcarchdev/patchwork/internal/usecase/item"
)

func TestParseCache(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.PatchworkConfig
		want CacheLocation
	}{
		{"none", config.PatchworkConfig{}, CacheLocation{}},
		{"s3", config.PatchworkConfig{Cache: "s3://spindle-cache"}, CacheLocation{Kind: CacheS3, Location: "spindle-cache"}},
		{"file", config.PatchworkConfig{Cache: "file:///var/cache/patchwork"}, CacheLocation{Kind: CacheFile, Location: "/var/cache/patchwork"}},
		{"bucket", config.PatchworkConfig{Bucket: "legacy"}, CacheLocation{Kind: CacheS3, Location: "legacy", Deprecated: true}},
		{"cache wins over bucket", config.PatchworkConfig{Cache: "file:///tmp/c", Bucket: "legacy"}, CacheLocation{Kind: CacheFile, Location: "/tmp/c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCache(tt.cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseCache() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseCache_Unsupported(t *testing.T) {
	for _, raw := range []string{"redis://localhost", "http://cache.example/", "s3://", "file://"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseCache(config.PatchworkConfig{Cache: raw})
			if !errors.Is(err, domain.ErrUnsupportedConfiguration) {
				t.Fatalf("expected ErrUnsupportedConfiguration, got %v", err)
			}
		})
	}
}

type stubSource struct{}

func (stubSource) Item(context.Context, *request.Request, identifier.ID) error { return nil }

func names(sources []item.Source) []string {
	var out []string
	for _, s := range sources {
		if n, ok := s.(interface{ Name() string }); ok {
			out = append(out, n.Name())
		} else {
			out = append(out, "?")
		}
	}
	return out
}

func TestSourceOrder(t *testing.T) {
	sp, err := sparql.New(sparql.Config{Endpoint: "http://localhost:8890/sparql"})
	if err != nil {
		t.Fatalf("sparql.New: %v", err)
	}
	rel := relational.New(nil)
	cache := item.NewInstrumentedSource(SourceFile, stubSource{})

	tests := []struct {
		name  string
		cache item.Source
		sp    *sparql.Repo
		rel   *relational.Repo
		want  []string
	}{
		{"cache and database", cache, nil, rel, []string{SourceFile, SourceDatabase}},
		{"cache and sparql", cache, sp, nil, []string{SourceFile}},
		{"sparql only", nil, sp, nil, []string{SourceSPARQL}},
		{"database only", nil, nil, rel, []string{SourceDatabase}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(SourceOrder(tt.cache, tt.sp, tt.rel))
			if len(got) != len(tt.want) {
				t.Fatalf("sources = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("sources = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
