package chainio

// hostBridgeABI is the interface every per-token host bridge contract
// exposes. One ABI is shared across all configured tokens; only the
// contract address differs per tokenIndex (spec.md §4.5's "static mapping
// tokenIndex → (bridgeContractAddress, contractAbi)" — the ABI half of
// that mapping is this constant, since every deployed bridge contract in
// this system implements the same interface).
const hostBridgeABI = `[
	{
		"name": "approveTransfer",
		"type": "function",
		"inputs": [
			{"name": "messageId", "type": "bytes32"},
			{"name": "from", "type": "address"},
			{"name": "to", "type": "bytes32"},
			{"name": "amount", "type": "uint256"},
			{"name": "tokenId", "type": "uint256"}
		]
	},
	{
		"name": "withdrawTransfer",
		"type": "function",
		"inputs": [
			{"name": "messageId", "type": "bytes32"},
			{"name": "from", "type": "bytes32"},
			{"name": "to", "type": "address"},
			{"name": "amount", "type": "uint256"},
			{"name": "tokenId", "type": "uint256"}
		]
	},
	{
		"name": "confirmWithdrawTransfer",
		"type": "function",
		"inputs": [
			{"name": "messageId", "type": "bytes32"},
			{"name": "from", "type": "bytes32"},
			{"name": "to", "type": "address"},
			{"name": "amount", "type": "uint256"},
			{"name": "tokenId", "type": "uint256"}
		]
	},
	{
		"name": "confirmTransfer",
		"type": "function",
		"inputs": [
			{"name": "messageId", "type": "bytes32"},
			{"name": "from", "type": "address"},
			{"name": "to", "type": "bytes32"},
			{"name": "amount", "type": "uint256"},
			{"name": "tokenId", "type": "uint256"}
		]
	},
	{
		"name": "confirmCancelTransfer",
		"type": "function",
		"inputs": [
			{"name": "messageId", "type": "bytes32"},
			{"name": "from", "type": "bytes32"},
			{"name": "to", "type": "address"},
			{"name": "amount", "type": "uint256"},
			{"name": "tokenId", "type": "uint256"}
		]
	},
	{
		"name": "setPausedStatusForGuestAddress",
		"type": "function",
		"inputs": [
			{"name": "messageId", "type": "bytes32"},
			{"name": "guestAddress", "type": "bytes32"},
			{"name": "timestamp", "type": "uint64"}
		]
	},
	{
		"name": "setResumedStatusForGuestAddress",
		"type": "function",
		"inputs": [
			{"name": "messageId", "type": "bytes32"},
			{"name": "guestAddress", "type": "bytes32"},
			{"name": "timestamp", "type": "uint64"}
		]
	}
]`
