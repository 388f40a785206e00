package id

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init sets up the process-wide ticket id generator. Each binary uses a
// distinct node id so ids minted by the server and the worker never collide.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	if err != nil {
		return fmt.Errorf("creating snowflake node %d: %w", nodeID, err)
	}
	return nil
}

// New returns a new time-ordered ticket id. Without a prior Init it uses node 0.
func New() int64 {
	_ = Init(0)
	return node.Generate().Int64()
}

// Parse converts the decimal form used in URLs and stream fields back to an id.
func Parse(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing ticket id %q: %w", s, err)
	}
	return v, nil
}
