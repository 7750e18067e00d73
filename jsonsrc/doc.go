// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package jsonsrc reads JSON text as a stream of structural events.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for JSON. Construct a scanner
// from an io.Reader and call its Next method to iterate over the stream:
//
//	s := jsonsrc.NewScanner(input)
//	for s.Next() == nil {
//	   log.Printf("Next token: %v", s.Token())
//	}
//
// Next returns io.EOF when the input has been fully consumed. Any other error
// indicates an I/O or lexical error in the input.
//
// # Reading
//
// The Reader type consumes tokens from a Scanner and reports the structure of
// the input as bsontree events: the beginning and end of objects and arrays,
// field names, and scalar values. A Reader implements bsontree.Reader, so its
// events can be copied directly into a bsontree.Builder:
//
//	r := jsonsrc.NewReader(input)
//	doc, err := bsontree.Build(r)
//
// Input in JSON With Commas and Comments (JWCC) can be read with a Reader
// constructed by NewJWCCReader.
package jsonsrc
