// Package kernel maps transaction kernels to the transactions that carry them.
//
// A transaction built by aggregation carries several kernels, so one record
// appears under every one of its kernels. The same kernel can also show up
// in several distinct records when a node saw both a transaction and a
// later aggregate containing it.
package kernel
