package deal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveFollowUp_AllBlank(t *testing.T) {
	last, next, temp := ResolveFollowUp([Steps]string{}, [Steps]string{})
	assert.Equal(t, 0, last)
	assert.Equal(t, 1, next)
	assert.Equal(t, NotInformedF, temp)
}

func TestResolveFollowUp_WhitespaceOnlyIsBlank(t *testing.T) {
	descs := [Steps]string{"   ", "\t", "", "  \n", ""}
	last, next, temp := ResolveFollowUp(descs, [Steps]string{})
	assert.Equal(t, 0, last)
	assert.Equal(t, 1, next)
	assert.Equal(t, NotInformedF, temp)
}

func TestResolveFollowUp_FirstStepFilled(t *testing.T) {
	descs := [Steps]string{"ligação inicial", "", "", "", ""}
	temps := [Steps]string{"Morno", "", "", "", ""}
	last, next, temp := ResolveFollowUp(descs, temps)
	assert.Equal(t, 1, last)
	assert.Equal(t, 2, next)
	assert.Equal(t, "Morno", temp)
}

func TestResolveFollowUp_LastFilledWins(t *testing.T) {
	// A gap at step 2 does not matter: the scan finds the highest filled step.
	descs := [Steps]string{"contato", "", "proposta enviada", "", ""}
	temps := [Steps]string{"Frio", "", "Quente", "", ""}
	last, next, temp := ResolveFollowUp(descs, temps)
	assert.Equal(t, 3, last)
	assert.Equal(t, 4, next)
	assert.Equal(t, "Quente", temp)
}

func TestResolveFollowUp_SequenceExhausted(t *testing.T) {
	descs := [Steps]string{"a", "b", "c", "d", "e"}
	temps := [Steps]string{"", "", "", "", "Quente"}
	last, next, temp := ResolveFollowUp(descs, temps)
	assert.Equal(t, 5, last)
	assert.Equal(t, 5, next)
	assert.Equal(t, "Quente", temp)
}

func TestResolveFollowUp_BlankTemperatureAtLastStep(t *testing.T) {
	descs := [Steps]string{"", "retornou ligação", "", "", ""}
	temps := [Steps]string{"Morno", "  ", "", "", ""}
	last, next, temp := ResolveFollowUp(descs, temps)
	assert.Equal(t, 2, last)
	assert.Equal(t, 3, next)
	assert.Equal(t, NotInformedF, temp)
}

func TestResolve_AnnotatesRecord(t *testing.T) {
	r := Record{
		Descriptions: [Steps]string{"primeiro contato", "enviou proposta", "", "", ""},
		Temperatures: [Steps]string{"Frio", "Morno", "", "", ""},
	}
	Resolve(&r)
	assert.Equal(t, 2, r.LastStep)
	assert.Equal(t, 3, r.NextStep)
	assert.Equal(t, "Morno", r.CurrentTemperature)
}
