// Package connectors provides implementations of the Connector interface
// for document sources. Each connector knows how to fetch a matter's raw
// documents from a specific source type (currently the filesystem intake
// directory).
//
// Connectors are created per matter through a ConnectorFactory.
package connectors
