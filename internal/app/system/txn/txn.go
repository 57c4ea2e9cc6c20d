// internal/app/system/txn/txn.go
//
// Package txn wraps multi-document writes in a Mongo session transaction
// when the deployment supports one. Standalone mongod (and some DocumentDB
// configurations) reject transactions; Run detects that and executes the
// function without one, leaving compensation to the caller.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// Server error codes that indicate transactions are unavailable.
const (
	codeNoReplicaSet     = 20  // "Transaction numbers are only allowed on a replica set member"
	codeIllegalOperation = 51  // "Illegal operation"
	codeNoTransaction    = 263 // "Cannot run in a multi-document transaction"
)

// keyword pairs in error text that indicate missing transaction support
// on servers that don't return a structured code.
var notSupportedPairs = [][2]string{
	{"transaction", "replica set"},
	{"transaction", "session"},
	{"session", "not supported"},
	{"illegal operation", "transaction"},
}

// IsNotSupported reports whether err means the server cannot run
// multi-document transactions.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case codeNoReplicaSet, codeIllegalOperation, codeNoTransaction:
			return true
		}
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, pair := range notSupportedPairs {
		if strings.Contains(msg, pair[0]) && strings.Contains(msg, pair[1]) {
			return true
		}
	}
	return false
}

// Run executes fn inside a transaction when possible. On servers without
// transaction support it runs fn directly; callers that need all-or-nothing
// semantics there must compensate on error (e.g. cascade-delete whatever
// the failed write left behind).
func Run(ctx context.Context, client *mongo.Client, fn func(ctx context.Context) error) error {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		return fn(ctx)
	}
	return err
}
