package rules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/emailqa/internal/model"
)

func writeRules(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Acme Outdoors", "acme_outdoors"},
		{"yanmar-tractors", "yanmar_tractors"},
		{"  Big Co-Op ", "big_co_op"},
		{"acme", "acme"},
		{"../secrets", ".._secrets"},
		{`..\win\x`, ".._win_x"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClientKey(tt.input), tt.input)
	}
}

func TestStore_PathStaysInDir(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, 0, zerolog.Nop())

	for _, client := range []string{"../x", "../../etc/passwd", "a/b"} {
		assert.Equal(t, dir, filepath.Dir(store.Path(client)), client)
	}

	_, err := store.Load("../acme")
	assert.ErrorIs(t, err, ErrNoRules)
}

func TestDecode(t *testing.T) {
	schema, err := Decode([]byte(`{"clientName":"Acme","ctas":{"all":["SHOP NOW"]},"modules":{"all":[{"name":"Hero","keywords":["hero"]}]}}`))
	require.NoError(t, err)
	assert.Equal(t, "Acme", schema.ClientName)
	assert.Equal(t, []string{"SHOP NOW"}, schema.CTAs["all"])
	assert.True(t, schema.Modules["all"][0].IsRequired())
	assert.Nil(t, schema.Brand)
	assert.Nil(t, schema.Compliance)

	_, err = Decode([]byte(`{"clientName": `))
	assert.ErrorIs(t, err, ErrMalformedRules)

	_, err = Decode([]byte(`{"ctas":{}}`))
	assert.ErrorIs(t, err, ErrMalformedRules)
}

func TestStore_LoadMissing(t *testing.T) {
	store := NewStore(t.TempDir(), 0, zerolog.Nop())

	_, err := store.Load("Nobody Inc")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoRules)

	var nre *NoRulesError
	require.True(t, errors.As(err, &nre))
	assert.Equal(t, "Nobody Inc", nre.Client)
	assert.Equal(t, "nobody_inc.json", filepath.Base(nre.Path))
}

func TestStore_LoadMalformed(t *testing.T) {
	dir := t.TempDir()
	writeRules(t, dir, "broken.json", `{not json`)
	store := NewStore(dir, 0, zerolog.Nop())

	_, err := store.Load("broken")
	assert.ErrorIs(t, err, ErrMalformedRules)
	assert.NotErrorIs(t, err, ErrNoRules)
}

func TestStore_CachesUntilReload(t *testing.T) {
	dir := t.TempDir()
	writeRules(t, dir, "acme_outdoors.json", `{"clientName":"Acme Outdoors","ctas":{"all":["SHOP NOW"]}}`)
	store := NewStore(dir, 0, zerolog.Nop())

	first, err := store.Load("Acme Outdoors")
	require.NoError(t, err)

	writeRules(t, dir, "acme_outdoors.json", `{"clientName":"Acme Outdoors","ctas":{"all":["BUY NOW"]}}`)

	cached, err := store.Load("acme-outdoors")
	require.NoError(t, err)
	assert.Same(t, first, cached)

	reloaded, err := store.Reload("Acme Outdoors")
	require.NoError(t, err)
	assert.Equal(t, []string{"BUY NOW"}, reloaded.CTAs["all"])
	assert.Equal(t, []string{"SHOP NOW"}, first.CTAs["all"], "reload must not modify the previous schema")
}

func TestStore_SaveAndClients(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "clients")
	store := NewStore(dir, 0, zerolog.Nop())

	schema := DefaultSchema("New Client")
	require.NoError(t, store.Save(schema))

	schema.ClientName = "mutated after save"
	loaded, err := store.Load("New Client")
	require.NoError(t, err)
	assert.Equal(t, "New Client", loaded.ClientName)

	writeRules(t, dir, "notes.txt", "ignored")
	require.NoError(t, store.Save(&model.RuleSchema{ClientName: "Acme"}))

	clients, err := store.Clients()
	require.NoError(t, err)
	assert.Equal(t, []string{"acme", "new_client"}, clients)

	fresh := NewStore(dir, 0, zerolog.Nop())
	again, err := fresh.Load("new client")
	require.NoError(t, err)
	assert.Equal(t, model.CaseUpper, again.Compliance.CTAStyle.Case)
}

func TestStore_SaveRejectsMissingClient(t *testing.T) {
	store := NewStore(t.TempDir(), 0, zerolog.Nop())
	assert.ErrorIs(t, store.Save(&model.RuleSchema{}), ErrMalformedRules)
}

func TestStore_ClientsMissingDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent"), 0, zerolog.Nop())
	clients, err := store.Clients()
	require.NoError(t, err)
	assert.Empty(t, clients)
}
