package studio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicyFor_FullAccess(t *testing.T) {
	for _, status := range []PlanStatus{StatusTrialing, StatusActive} {
		policy := PolicyFor(status)
		assert.True(t, policy.CanView, string(status))
		assert.True(t, policy.CanCreate, string(status))
		assert.True(t, policy.CanEdit, string(status))
		assert.True(t, policy.CanExport, string(status))
		assert.True(t, policy.CanBook, string(status))
		assert.True(t, policy.CanPurchase, string(status))
		assert.True(t, policy.CanAccessSettings, string(status))
		assert.False(t, policy.IsFullyLocked, string(status))
	}
}

func TestPolicyFor_PastDue(t *testing.T) {
	policy := PolicyFor(StatusPastDue)

	assert.True(t, policy.CanView)
	assert.True(t, policy.CanEdit)
	assert.True(t, policy.CanExport)
	assert.False(t, policy.CanBook)
	assert.False(t, policy.CanPurchase)
	assert.False(t, policy.CanCreate)
	assert.False(t, policy.IsFullyLocked)
}

func TestPolicyFor_Grace(t *testing.T) {
	policy := PolicyFor(StatusGrace)

	assert.True(t, policy.CanView)
	assert.True(t, policy.CanExport)
	assert.False(t, policy.CanEdit)
	assert.False(t, policy.CanCreate)
	assert.False(t, policy.CanBook)
	assert.False(t, policy.CanPurchase)
	assert.False(t, policy.IsFullyLocked)
}

func TestPolicyFor_Canceled(t *testing.T) {
	policy := PolicyFor(StatusCanceled)

	assert.False(t, policy.CanView)
	assert.True(t, policy.IsFullyLocked)
}

func TestPolicyFor_UnknownIsFullyLocked(t *testing.T) {
	for _, status := range []PlanStatus{"", "suspended", "deleted"} {
		policy := PolicyFor(status)
		assert.True(t, policy.IsFullyLocked, string(status))
		assert.False(t, policy.CanView, string(status))
		assert.False(t, policy.CanBook, string(status))
	}
}
