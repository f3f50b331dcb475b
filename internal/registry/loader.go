package registry

import (
	"fmt"
	"net/url"
	"strings"

	"intentd/internal/config"
	"intentd/internal/intent"
	"intentd/pkg/types"
)

// Registry maps each classification backend to its inference endpoint.
type Registry struct {
	Endpoints map[intent.Backend]intent.Endpoint
	Backends  []types.BackendInfo
}

// Load builds a registry from classifier configuration. A backend entry that
// is an absolute http(s) URL is used as-is; anything else is treated as a
// model id under BaseURL (a leading "./" is dropped, so local artifact names
// like "./distilbert" map to "<base>/distilbert").
func Load(cfg config.ClassifierConfig) (Registry, error) {
	reg := Registry{Endpoints: make(map[intent.Backend]intent.Endpoint)}
	refs := map[intent.Backend]string{
		intent.Distilbert: cfg.Distilbert,
		intent.Roberta:    cfg.Roberta,
		intent.ZeroShot:   cfg.ZeroShot,
	}
	for _, b := range intent.Backends() {
		u, err := endpointURL(cfg.BaseURL, refs[b])
		if err != nil {
			return Registry{}, fmt.Errorf("%s: %w", b, err)
		}
		reg.Endpoints[b] = intent.Endpoint{URL: u, Token: cfg.Token}
		reg.Backends = append(reg.Backends, types.BackendInfo{Name: b.String(), Task: b.Task(), URL: u})
	}
	return reg, nil
}

func endpointURL(base, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}
	if isAbsHTTP(ref) {
		return ref, nil
	}
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return "", fmt.Errorf("model %q needs a base_url", ref)
	}
	if !isAbsHTTP(base) {
		return "", fmt.Errorf("base_url %q is not an http(s) URL", base)
	}
	ref = strings.TrimLeft(strings.TrimPrefix(ref, "./"), "/")
	return base + "/" + ref, nil
}

func isAbsHTTP(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
