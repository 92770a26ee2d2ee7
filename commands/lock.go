package commands

// LockCommand acquires the hardware lock, pausing dispatch before the
// next step. A stream already past compilation keeps its slots; it
// resumes exactly where it stalled once unlocked.
func LockCommand() *CommandResponse {
	ActiveGenerator().HardwareLock()
	return NewSuccessResponse(map[string]interface{}{
		"message": "hardware lock acquired",
	})
}

// UnlockCommand releases the hardware lock.
func UnlockCommand() *CommandResponse {
	ActiveGenerator().HardwareUnlock()
	return NewSuccessResponse(map[string]interface{}{
		"message": "hardware lock released",
	})
}
