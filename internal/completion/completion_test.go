package completion

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestStaticFiltersByPrefix(t *testing.T) {
	fn := Static("pending", "processing", "shipped")
	words, directive := fn(&cobra.Command{}, nil, "p")

	assert.Equal(t, []string{"pending", "processing"}, words)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
}

func TestOrderStatusesOnlySecondPositional(t *testing.T) {
	fn := OrderStatuses([]string{"pending", "shipped"})

	words, _ := fn(&cobra.Command{}, nil, "")
	assert.Empty(t, words)

	words, _ = fn(&cobra.Command{}, []string{"ord-1"}, "sh")
	assert.Equal(t, []string{"shipped"}, words)
}

func TestThemePresetsListsEmbeddedNames(t *testing.T) {
	fn := ThemePresets()
	words, _ := fn(&cobra.Command{}, nil, "")

	assert.Contains(t, words, "classic")
	assert.Contains(t, words, "himalaya")
}

func TestOnOff(t *testing.T) {
	fn := OnOff()
	words, _ := fn(&cobra.Command{}, []string{"cat-1"}, "o")

	assert.Equal(t, []string{"on", "off"}, words)
}
