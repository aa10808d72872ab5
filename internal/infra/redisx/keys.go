package redisx

import "time"

const (
	// blacklist:token:{signature} -> "1", expires with the token
	KeyTokenBlacklist = "blacklist:token:%s"

	// product:{id} -> JSON encoded domain.Product
	KeyProduct = "product:%d"
)

var TTLProductCache = 5 * time.Minute
