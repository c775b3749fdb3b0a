package file

import (
	"testing"

	"github.com/jsphweid/voicedex/model"
	"github.com/stretchr/testify/assert"
)

func TestCreateFileNumMap(t *testing.T) {
	m := CreateFileNumMap([]string{"bach/bwv582.mid", "buxtehude/bux149.mid"})
	assert.Equal(t, model.FileNumToMidiPath{0: "bach/bwv582.mid", 1: "buxtehude/bux149.mid"}, m)
}
