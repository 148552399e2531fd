package codeview

// ContractSource is the Cairo contract the assistant "generates". It is
// shown as is and never compiled.
const ContractSource = `#[starknet::contract]
mod TokenVault {
    use starknet::ContractAddress;
    use starknet::get_caller_address;

    #[storage]
    struct Storage {
        owner: ContractAddress,
        balances: LegacyMap<ContractAddress, u256>,
    }

    #[constructor]
    fn constructor(ref self: ContractState, owner: ContractAddress) {
        self.owner.write(owner);
    }

    #[external(v0)]
    fn withdraw(ref self: ContractState, amount: u256) {
        let caller = get_caller_address();
        let balance = self.balances.read(caller);
        self.balances.write(caller, balance - amount);
    }
}`

// Markdown wraps ContractSource in a fenced block for glamour.
func Markdown() string {
	return "```rust\n" + ContractSource + "\n```\n"
}
