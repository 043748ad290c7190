// Package normalisers converts memoir source files into plain text before
// segmentation. Each subpackage handles one file format; the Registry picks
// one by file extension.
package normalisers
