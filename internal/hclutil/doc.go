// Package hclutil holds small helpers shared by the HCL definition parsers:
// unique-block lookup and order-preserving decoding of object expressions.
package hclutil
