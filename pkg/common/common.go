package common

import (
	"os"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var (
	idNode *snowflake.Node
	idOnce sync.Once
)

// SetupIDGenerator initializes the snowflake node. Node id may be overridden
// with the BOUTIQUE_NODE_ID environment variable for multi-instance deploys.
func SetupIDGenerator() (err error) {
	idOnce.Do(func() {
		nodeID := int64(1)
		if v := os.Getenv("BOUTIQUE_NODE_ID"); v != "" {
			if n, perr := strconv.ParseInt(v, 10, 64); perr == nil {
				nodeID = n
			}
		}
		idNode, err = snowflake.NewNode(nodeID)
	})
	return err
}

// UUID returns a new opaque record id in base36 form.
func UUID() string {
	if idNode == nil {
		_ = SetupIDGenerator()
	}
	return idNode.Generate().Base36()
}

// UUIDint64 returns a new numeric id.
func UUIDint64() int64 {
	if idNode == nil {
		_ = SetupIDGenerator()
	}
	return idNode.Generate().Int64()
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
