package typesapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/pgtypes/pkg/pgtypes"
)

func setupTestServer(t *testing.T) *httptest.Server {
	registry := pgtypes.NewTypesRegistry()
	registry.Add(pgtypes.NewTypeInfo("int4", 23, 1007, pgtypes.WithRegtype("integer")))
	registry.Add(pgtypes.NewTypeInfo("box", 603, 1020, pgtypes.WithDelimiter(";")))
	registry.Add(pgtypes.NewTypeInfo("hstore", 16414, 16419, pgtypes.WithRegtype("public.hstore")))

	srv := httptest.NewServer(NewHandler(registry, nil).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) int {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestListTypes(t *testing.T) {
	srv := setupTestServer(t)

	var got []typeJSON
	status := getJSON(t, srv.URL+"/types", &got)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, got, 3)

	// Sorted by oid.
	assert.Equal(t, "int4", got[0].Name)
	assert.Equal(t, "box", got[1].Name)
	assert.Equal(t, "hstore", got[2].Name)
}

func TestGetType(t *testing.T) {
	srv := setupTestServer(t)

	t.Run("by name", func(t *testing.T) {
		var got typeJSON
		status := getJSON(t, srv.URL+"/types/hstore", &got)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, uint32(16414), got.OID)
		assert.Equal(t, "public.hstore", got.Regtype)
	})

	t.Run("by oid", func(t *testing.T) {
		var got typeJSON
		status := getJSON(t, srv.URL+"/types/603", &got)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "box", got.Name)
		assert.Equal(t, ";", got.Delimiter)
	})

	t.Run("by array name", func(t *testing.T) {
		var got typeJSON
		status := getJSON(t, srv.URL+"/types/"+url.PathEscape("int4[]"), &got)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "int4", got.Name)
	})

	t.Run("unknown name", func(t *testing.T) {
		var got errorJSON
		status := getJSON(t, srv.URL+"/types/nope", &got)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Contains(t, got.Error, "nope")
	})

	t.Run("oid out of range", func(t *testing.T) {
		var got errorJSON
		status := getJSON(t, srv.URL+"/types/99999999999", &got)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, got.Error, "out of range")
	})
}
