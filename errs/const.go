package errs

const (
	ErrCode_OK      = 0
	ErrCode_Unknown = 1

	// timer
	ErrCode_InvalidOwner  = 100
	ErrCode_InvalidId     = 101
	ErrCode_InvalidPeriod = 102
	ErrCode_Busy          = 103
	ErrCode_Full          = 104
	ErrCode_NotFound      = 105

	// loop
	ErrCode_LoopClosed    = 200
	ErrCode_LoopBusy      = 201
	ErrCode_LoopReentered = 202

	// owner
	ErrCode_DuplicateOwner = 300
	ErrCode_InvalidPath    = 301

	// admin & config
	ErrCode_BadCommand = 400
	ErrCode_Config     = 401
)

var (
	Unknown = CreateCodeError(ErrCode_Unknown, "UNKNOWN")

	InvalidOwner  = CreateCodeError(ErrCode_InvalidOwner, "INVALID_OWNER")
	InvalidId     = CreateCodeError(ErrCode_InvalidId, "INVALID_ID")
	InvalidPeriod = CreateCodeError(ErrCode_InvalidPeriod, "INVALID_PERIOD")
	Busy          = CreateCodeError(ErrCode_Busy, "BUSY")
	Full          = CreateCodeError(ErrCode_Full, "FULL")
	NotFound      = CreateCodeError(ErrCode_NotFound, "NOT_FOUND")

	LoopClosed    = CreateCodeError(ErrCode_LoopClosed, "LOOP_CLOSED")
	LoopBusy      = CreateCodeError(ErrCode_LoopBusy, "LOOP_BUSY")
	LoopReentered = CreateCodeError(ErrCode_LoopReentered, "LOOP_REENTERED")

	DuplicateOwner = CreateCodeError(ErrCode_DuplicateOwner, "DUPLICATE_OWNER")
	InvalidPath    = CreateCodeError(ErrCode_InvalidPath, "INVALID_PATH")

	BadCommand = CreateCodeError(ErrCode_BadCommand, "BAD_COMMAND")
	Config     = CreateCodeError(ErrCode_Config, "CONFIG")
)
