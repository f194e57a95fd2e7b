package database

import (
	"testing"

	modelspkg "epowrite/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_IncludesAggregateChildren(t *testing.T) {
	var hasLike, hasReport, hasComment bool
	for _, model := range PersistentModels() {
		switch model.(type) {
		case *modelspkg.Like:
			hasLike = true
		case *modelspkg.Report:
			hasReport = true
		case *modelspkg.Comment:
			hasComment = true
		}
	}
	require.True(t, hasLike, "PersistentModels should include Like")
	require.True(t, hasReport, "PersistentModels should include Report")
	require.True(t, hasComment, "PersistentModels should include Comment")
}
