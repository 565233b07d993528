// Package io encodes colourings to text documents and decodes them back.
//
// # Document Format
//
// A document has three top-level fields. Field order is not significant and
// unknown fields are ignored:
//
//	{
//	  "vertices": [
//	    {"id": "v1", "x": 120, "y": 80},
//	    {"id": "v2", "x": 200, "y": 80}
//	  ],
//	  "edges": [
//	    {"id": "v1_v2", "source": {"id": "v1"}, "target": {"id": "v2"}}
//	  ],
//	  "colours": {"v1": "black", "v2": "white"}
//	}
//
// The same fields are available as TOML ([FormatTOML]), with [[vertices]]
// and [[edges]] arrays of tables and a [colours] table.
//
// # Positions
//
// The core does not track positions after a vertex is created; the view
// does. [Encode] asks a [Locator] for each vertex's live position, falls back
// to the position stored on the vertex, and omits x and y when neither is
// known. A document written by the editor therefore carries coordinates for
// every vertex.
//
// # Decoding
//
// [Decode] parses the document, validates its shape, and rebuilds the graph
// and colouring through their constructors. Edge endpoints are resolved from
// the saved ids; the ids are authoritative. Any failure, from a syntax error
// to an edge naming an unknown vertex, is a MALFORMED_INPUT error:
//
//	c, err := io.Decode(data, io.FormatJSON)
//	if errors.Is(err, errors.ErrCodeMalformedInput) {
//	    // keep the current session
//	}
//
// For every valid colouring c, Decode(Encode(c)) equals c.
package io
