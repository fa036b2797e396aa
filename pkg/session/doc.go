/*
Package session implements durable automaton sessions and the orchestration
around them.

A Session records where a named machine currently stands so that symbol
feeding can stop and resume across process restarts. The package defines the
persistence and locking ports, a Manager that serializes access per session
across goroutines and replicas, and a reusable contract suite for Store
implementations.
*/
package session
