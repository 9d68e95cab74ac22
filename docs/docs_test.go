package docs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

var routerAnnotation = regexp.MustCompile(`@Router\s+(\S+)\s+\[(\w+)\]`)

func TestSwaggerDocMatchesHandlerAnnotations(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		BasePath string                                `json:"basePath"`
		Paths    map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc), raw)
	assert.Equal(t, "/api/users", doc.BasePath)

	files, err := filepath.Glob("../internal/handlers/*_handler.go")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	annotated := 0
	for _, file := range files {
		src, err := os.ReadFile(file)
		require.NoError(t, err)

		for _, m := range routerAnnotation.FindAllStringSubmatch(string(src), -1) {
			annotated++
			path, method := m[1], strings.ToLower(m[2])
			assert.Contains(t, doc.Paths[path], method, "%s %s missing from doc", method, path)
		}
	}

	documented := 0
	for _, ops := range doc.Paths {
		documented += len(ops)
	}
	assert.Equal(t, 21, annotated)
	assert.Equal(t, annotated, documented)
}
