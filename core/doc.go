// Package core holds the query domain: credentials, validated queries, the
// canonical query string, request signing and the client that dispatches
// signed requests through a transport adapter. Transport implementations live
// in sibling packages; core only depends on the TransportAdapter contract.
package core
