// Package papers owns the document table the region labeller works on.
//
// Responsibilities: layout ingestion (id, x, y triples), keyword lookup and
// normalisation, bounding boxes and radius queries over the loaded papers.
// Key types: Document, Table, Index.
//
// Documents are immutable once a Table is built; every consumer reads them
// concurrently without locking.
package papers
