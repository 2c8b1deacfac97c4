package differ

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		updated  string
		want     Action
	}{
		{"missing page", "", "new content", Create},
		{"identical", "content\n", "content\n", Skip},
		{"trailing whitespace ignored", "content", "content  \n\n", Skip},
		{"changed", "old content", "new content", Update},
		{"leading whitespace matters", " content", "content", Update},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.existing, tt.updated))
		})
	}
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "create", Create.String())
	assert.Equal(t, "update", Update.String())
	assert.Equal(t, "skip", Skip.String())
}

func TestChangeset(t *testing.T) {
	var c Changeset
	c.Add("tools:a", Create)
	c.Add("tools:b", Update)
	c.Add("tools:c", Skip)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"tools:a", "tools:b"}, c.Changed())
	assert.Equal(t, "1 created, 1 updated, 1 unchanged", c.Summary())
}

func TestChangesetMerge(t *testing.T) {
	var a, b Changeset
	a.Add("tools:a", Create)
	b.Add("papers:b", Update)
	b.Add("papers:c", Skip)

	a.Merge(b)
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, []string{"papers:b", "tools:a"}, a.Changed())
}
