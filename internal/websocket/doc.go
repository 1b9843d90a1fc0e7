// Package websocket serves the live dashboard channel on /ws.
//
// A browser sends dashboard:event messages carrying a tab selection or a
// dropdown change and receives the rebuilt panel or chart pair as
// dashboard:panel or dashboard:charts, each echoing the inbound message id
// in reply_to. ping is answered with pong; failures come back as error
// messages with the same codes as the HTTP API.
package websocket
