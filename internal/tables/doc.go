// Package tables contains the constant tables shared by the encoder and
// decoder: critical band edges, quantizer step sizes and the encoder's
// per-band quantizer profiles.
package tables
