/*
Package domain contains the core types for the feedbridge request/response
bridge.

It defines the three shapes that flow through a feedback request: the
Request received from the agent, the Record the dialog subprocess writes to
the handshake file, and the Response returned to the agent. The package is
kept pure and free of I/O so the handshake, launcher and bridge packages can
share it without cycles.
*/
package domain
