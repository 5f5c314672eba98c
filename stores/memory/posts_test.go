package memory

import (
	"testing"

	"blog-api/core"
	"blog-api/stores/storetest"

	"github.com/stretchr/testify/suite"
)

func TestPostStore(t *testing.T) {
	suite.Run(t, &storetest.Suite{
		NewStore: func(*testing.T) core.PostStore { return NewPostStore() },
	})
}
