// Package patch builds offline audio graphs from a declarative JSON
// description.
//
// A patch lists nodes by id and type and the connections between them.
// The id "destination" is reserved and names the context destination:
//
//	{
//	  "nodes": [
//	    {"id": "src", "type": "buffer-source", "params": {"file": "in.wav", "loop": true}},
//	    {"id": "lp", "type": "biquad", "params": {"type": "lowpass", "frequency": 800}},
//	    {"id": "hum", "type": "iir", "params": {"feedforward": [0.5], "feedback": [1, -0.5]}}
//	  ],
//	  "connections": [
//	    {"from": "src", "to": "lp"},
//	    {"from": "lp", "to": "hum"},
//	    {"from": "hum", "to": "destination"}
//	  ]
//	}
//
// Cycles are allowed; the offline context decides whether it can render them.
package patch
