package stackctl

// Indirection layer to allow stubbing in tests

var (
	fnInstall = installStack
	fnReset   = resetStack
	fnVerify  = verifyStack
	fnStatus  = statusStack
)
