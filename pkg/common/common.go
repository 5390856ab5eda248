package common

import (
	"math/rand"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var (
	snowflakeNode *snowflake.Node
	snowflakeOnce sync.Once
)

// node id can be fixed via COMANDERO_NODE_ID when running multiple instances
func getSnowflakeNode() *snowflake.Node {
	snowflakeOnce.Do(func() {
		nodeID := int64(rand.New(rand.NewSource(time.Now().UnixNano())).Intn(1023))
		if v := os.Getenv("COMANDERO_NODE_ID"); v != "" {
			if id, err := strconv.ParseInt(v, 10, 64); err == nil && id >= 0 && id <= 1023 {
				nodeID = id
			}
		}
		node, err := snowflake.NewNode(nodeID)
		if err != nil {
			panic(err)
		}
		snowflakeNode = node
	})
	return snowflakeNode
}

// UUIDint64 returns a cluster-unique int64 identifier.
func UUIDint64() int64 {
	return getSnowflakeNode().Generate().Int64()
}

// UUID returns the string form of a generated identifier.
func UUID() string {
	return getSnowflakeNode().Generate().String()
}
