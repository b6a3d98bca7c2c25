package config

import "time"

// Timeouts used by the commands.
const (
	RPCSelectTimeout   = 10 * time.Second // probing a chain's rpcUrls
	DefaultCallTimeout = 30 * time.Second
)

// Addresses of the deployed contracts on Sonic Blaze Testnet.
const (
	FactoryAddress       = "0xAbd617983DCE1571D71cCC0F6C167cd72E8b9be7"
	LuxAddress           = "0x9749156E590d0a8689Bc30F108773D7509D48A84"
	ChapterMapperAddress = "0x6E36C9b901fcc6bA468AccA471C805D67e6AAfb8"
	LightSourceAddress   = "0x0a8a210aff1171da29d151a0bb6af8ef2360d170"
)
