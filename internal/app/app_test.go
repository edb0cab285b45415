package app

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	"catalogadmin/internal/config"
	"catalogadmin/internal/model"
	"catalogadmin/internal/testutil"
)

var pathParam = regexp.MustCompile(`:(\w+)`)

type swaggerDoc struct {
	Schemes []string `json:"schemes"`
	Paths   map[string]map[string]struct {
		Consumes   []string `json:"consumes"`
		Parameters []struct {
			In   string `json:"in"`
			Name string `json:"name"`
		} `json:"parameters"`
	} `json:"paths"`
}

func TestSwaggerDocumentsEveryAPIRoute(t *testing.T) {
	cfg := &config.Config{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		Policy:    config.Policy{ProductCreateRole: model.RoleUser, CategoryDelete: config.CategoryDeleteRestrict},
		Paginate:  config.Paginate{DefaultPerPage: 10, MaxPerPage: 100},
	}
	a := New(cfg, testutil.OpenDB(t), nil, zerolog.Nop())

	raw, err := swag.ReadDoc()
	require.NoError(t, err)
	var doc swaggerDoc
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, []string{"http"}, doc.Schemes)

	methods := map[string]bool{
		http.MethodGet: true, http.MethodPost: true, http.MethodPut: true,
		http.MethodPatch: true, http.MethodDelete: true,
	}
	for _, r := range a.Echo.Routes() {
		if !methods[r.Method] || !strings.HasPrefix(r.Path, "/api/") {
			continue
		}
		path := pathParam.ReplaceAllString(strings.TrimPrefix(r.Path, "/api"), "{$1}")
		ops, ok := doc.Paths[path]
		if !assert.True(t, ok, "undocumented path %s", path) {
			continue
		}
		op, ok := ops[strings.ToLower(r.Method)]
		if !assert.True(t, ok, "undocumented %s %s", r.Method, path) {
			continue
		}
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			var body bool
			for _, p := range op.Parameters {
				body = body || p.In == "body"
			}
			if body {
				assert.Contains(t, op.Consumes, "application/json", "%s %s", r.Method, path)
			}
		}
	}

	register := doc.Paths["/register"]["post"]
	assert.Equal(t, []string{"application/json"}, register.Consumes)
	require.Len(t, register.Parameters, 1)
	assert.Equal(t, "body", register.Parameters[0].In)
}
