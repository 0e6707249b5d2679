// Package task runs bounded concurrent maintenance work over the product
// collection. A TaskQueue feeds a fixed-size WorkerPool; producers block when
// the queue is full, and closing the queue lets the pool drain and exit so
// callers can wait for every submitted task to finish.
//
// KeywordRefresher uses the pool to recompute the derived searchKeywords
// field of every product.
package task
