// Package sparsity contains the core components of a labeled sparse frame
// engine: a two-dimensional table backed by compressed sparse row storage,
// together with a row index and a column index. This root package defines the
// shared value types (Label, Shape) and the Matrix, Index and Frame contracts,
// and is an overview of the engine's key concepts. Implementations live in
// subpackages: csr for storage, index for labels, frame for the aligned table,
// encode for one-hot encoding, npzio for persistence and coordinator for the
// multi-partition facade.
package sparsity
