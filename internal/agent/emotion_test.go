package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyAffect(t *testing.T) {
	emotional := []string{
		"I'm so stressed about everything",
		"honestly I hate my job",
		"feeling hopeless lately",
		"total burnout this week",
		"I feel overwhelmed",
	}
	for _, msg := range emotional {
		assert.Equal(t, AffectEmotional, ClassifyAffect(msg), "message %q", msg)
	}

	neutral := []string{
		"add laundry to my list",
		"I have an exam on Friday",
		"what should I cook tonight",
	}
	for _, msg := range neutral {
		assert.Equal(t, AffectNeutral, ClassifyAffect(msg), "message %q", msg)
	}
}

func TestWantsHappiness(t *testing.T) {
	assert.True(t, wantsHappiness("how can I feel better?"))
	assert.True(t, wantsHappiness("I just want to be happy"))
	assert.True(t, wantsHappiness("please help me"))
	assert.False(t, wantsHappiness("everything is terrible"))
}
