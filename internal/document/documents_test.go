package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obj(kv ...string) Item {
	m := make(map[string]interface{})
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return ObjectItem(m)
}

func TestMergeDocuments_RemoteWinsOnConflict(t *testing.T) {
	local := Document{
		SectionMCP: {
			"a": obj("command", "local"),
			"b": obj("command", "local-only"),
		},
	}
	remote := Document{
		SectionMCP: {
			"a": obj("command", "remote"),
			"c": obj("command", "remote-only"),
		},
	}

	got := MergeDocuments(local, remote)
	require.Contains(t, got, SectionMCP)
	assert.Equal(t, obj("command", "remote"), got[SectionMCP]["a"])
	assert.Equal(t, obj("command", "local-only"), got[SectionMCP]["b"])
	assert.Equal(t, obj("command", "remote-only"), got[SectionMCP]["c"])
}

func TestMergeDocuments_DoesNotMutateLocal(t *testing.T) {
	local := Document{
		SectionMCP: {"a": obj("command", "local")},
	}
	remote := Document{
		SectionMCP: {"a": DeletedItem()},
	}

	got := MergeDocuments(local, remote)
	assert.NotContains(t, got[SectionMCP], "a")
	assert.Equal(t, obj("command", "local"), local[SectionMCP]["a"])
}

func TestMergeDocuments_SentinelDeletes(t *testing.T) {
	local := Document{
		SectionMCP: {"a": obj("command", "x")},
	}
	remote := Document{
		SectionMCP: {
			"a": DeletedItem(),
			"b": obj("command", "y"),
		},
	}

	got := MergeDocuments(local, remote)
	assert.NotContains(t, got[SectionMCP], "a")
	assert.Equal(t, obj("command", "y"), got[SectionMCP]["b"])
	assert.Len(t, got[SectionMCP], 1)
}

func TestMergeDocuments_ObjectWinsOverSentinel(t *testing.T) {
	local := Document{
		SectionRules: {"style": DeletedItem()},
	}
	remote := Document{
		SectionRules: {"style": obj("content", "be terse")},
	}

	got := MergeDocuments(local, remote)
	assert.Equal(t, obj("content", "be terse"), got[SectionRules]["style"])
}

func TestMergeDocuments_BothSentinelsRemoveKey(t *testing.T) {
	local := Document{
		SectionPrompts: {"review": DeletedItem()},
	}
	remote := Document{
		SectionPrompts: {"review": DeletedItem(), "other": obj("content", "x")},
	}

	got := MergeDocuments(local, remote)
	assert.NotContains(t, got[SectionPrompts], "review")
	assert.Contains(t, got[SectionPrompts], "other")
}

// A section absent from the remote side is passed through untouched,
// sentinels included. A section that does participate in a merge pass has
// its sentinels filtered out. The asymmetry is deliberate.
func TestMergeDocuments_SentinelPassThroughAsymmetry(t *testing.T) {
	local := Document{
		SectionRules:   {"gone": DeletedItem(), "kept": obj("content", "x")},
		SectionPrompts: {"gone": DeletedItem()},
	}
	remote := Document{
		// Rules participate in a merge pass; prompts do not.
		SectionRules: {"extra": obj("content", "y")},
	}

	got := MergeDocuments(local, remote)

	assert.NotContains(t, got[SectionRules], "gone", "merged section filters local sentinels")
	assert.Contains(t, got[SectionRules], "kept")
	assert.Contains(t, got[SectionRules], "extra")

	require.Contains(t, got, SectionPrompts)
	assert.True(t, got[SectionPrompts]["gone"].IsDeleted(), "untouched section keeps sentinels")
}

func TestMergeDocuments_Scenario(t *testing.T) {
	local := Document{
		SectionMCP: {"a": obj("command", "x")},
	}
	remote := Document{
		SectionMCP: {
			"a": DeletedItem(),
			"b": obj("command", "y"),
		},
	}

	got := MergeDocuments(local, remote)
	want := Document{
		SectionMCP: {"b": obj("command", "y")},
	}
	assert.Equal(t, want, got)
}

func TestFilterScopes(t *testing.T) {
	doc := Document{
		SectionMCP:   {"a": obj("command", "x")},
		SectionRules: {"style": obj("content", "c")},
	}

	t.Run("empty scopes yields empty document", func(t *testing.T) {
		got := FilterScopes(doc, nil)
		assert.Empty(t, got)
	})

	t.Run("single present scope", func(t *testing.T) {
		got := FilterScopes(doc, []Section{SectionMCP})
		assert.Len(t, got, 1)
		assert.Equal(t, doc[SectionMCP], got[SectionMCP])
	})

	t.Run("absent scope is omitted entirely", func(t *testing.T) {
		got := FilterScopes(doc, []Section{SectionHooks, SectionRules})
		assert.Len(t, got, 1)
		assert.NotContains(t, got, SectionHooks)
		assert.Contains(t, got, SectionRules)
	})
}

func TestItem_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    ItemKind
		wantErr bool
	}{
		{name: "object", data: `{"command":"x"}`, want: ItemObject},
		{name: "shorthand", data: `"./rules/style.md"`, want: ItemShorthand},
		{name: "false sentinel", data: `false`, want: ItemDeleted},
		{name: "true is invalid", data: `true`, wantErr: true},
		{name: "number is invalid", data: `42`, wantErr: true},
		{name: "array is invalid", data: `[1]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var item Item
			err := json.Unmarshal([]byte(tt.data), &item)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, item.Kind())
		})
	}
}

func TestItem_MarshalRoundTrip(t *testing.T) {
	items := []Item{
		obj("command", "npx"),
		ShorthandItem("./skills/review"),
		DeletedItem(),
	}
	for _, item := range items {
		data, err := json.Marshal(item)
		require.NoError(t, err)
		var back Item
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, item, back)
	}
}
