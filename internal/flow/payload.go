package flow

import (
	"fmt"
	"sort"
)

// Payload is the fabricated record shown once a deployment "succeeds".
// Every field is displayed verbatim.
type Payload struct {
	Name            string
	Network         string
	Explorer        string
	ClassHash       string
	ContractAddress string
	TxHash          string
	ContractURL     string
	TxURL           string
	GasUsed         string
	GasCost         string
}

// DefaultPayloadName is the preset used when none is configured.
const DefaultPayloadName = "starknet"

var payloads = map[string]Payload{
	"starknet": {
		Name:            "starknet",
		Network:         "Starknet Sepolia",
		Explorer:        "Starkscan",
		ClassHash:       "0x05a09f246f971dbb4a1368e769ec7be986de7ceadb478e21df75cd124b4e8d15",
		ContractAddress: "0x032cbfe28e77d737c3fe5063e17e55eedbf1c4dff7157564aa234f1bce8d61c0",
		TxHash:          "0x0440f305041d03c29d0d322a19531301d0125cb50ab8de43332ee8bd59f6cf0d",
		ContractURL:     "https://sepolia.starkscan.co/contract/0x032cbfe28e77d737c3fe5063e17e55eedbf1c4dff7157564aa234f1bce8d61c0",
		TxURL:           "https://sepolia.starkscan.co/tx/0x0440f305041d03c29d0d322a19531301d0125cb50ab8de43332ee8bd59f6cf0d",
		GasUsed:         "0.0023",
		GasCost:         "$3.45",
	},
	"sepolia": {
		Name:            "sepolia",
		Network:         "Ethereum Sepolia",
		Explorer:        "Etherscan",
		ContractAddress: "0xa1b2c3d4e5f6789012345678901234567890abcd",
		TxHash:          "0x1234567890abcdef1234567890abcdef1234567890abcdef1234567890abcdef",
		ContractURL:     "https://sepolia.etherscan.io/address/0xa1b2c3d4e5f6789012345678901234567890abcd",
		TxURL:           "https://sepolia.etherscan.io/tx/0x1234567890abcdef1234567890abcdef1234567890abcdef1234567890abcdef",
		GasUsed:         "0.0023",
		GasCost:         "$3.45",
	},
}

// LookupPayload returns the named preset. An empty name selects the default.
func LookupPayload(name string) (Payload, error) {
	if name == "" {
		name = DefaultPayloadName
	}
	p, ok := payloads[name]
	if !ok {
		return Payload{}, fmt.Errorf("unknown payload preset %q (available: %v)", name, PayloadNames())
	}
	return p, nil
}

// DefaultPayload returns the default preset.
func DefaultPayload() Payload {
	return payloads[DefaultPayloadName]
}

// PayloadNames lists the preset names in sorted order.
func PayloadNames() []string {
	names := make([]string, 0, len(payloads))
	for name := range payloads {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DeployMessages returns the scripted status lines shown while deploying to
// the payload's network.
func (p Payload) DeployMessages() []string {
	return []string{
		"Initializing secure deployment...",
		"Validating session key permissions...",
		"Compiling Cairo contract...",
		"Running security simulation...",
		"Policy validation passed ✓",
		"Deploying to " + p.Network + "...",
		"Transaction confirmed ✓",
	}
}
