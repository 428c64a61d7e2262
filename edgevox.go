// Package edgevox provides text-to-speech synthesis over the Microsoft Edge
// read-aloud service, exposed to editor clients as Model Context Protocol
// tools.
package edgevox
