package pipeline

import "fmt"

const coinLinkBase = "https://pump.fun/coin/"

// ComposeSuccessReply builds the reply for a successfully created coin.
func ComposeSuccessReply(handle, name, symbol, mintAddress string) string {
	return fmt.Sprintf("%s%s ($%s) is live! %s%s", atPrefix(handle), name, symbol, coinLinkBase, mintAddress)
}

// ComposeMissingImageReply asks the requester to retry with an image.
func ComposeMissingImageReply(handle string) string {
	return fmt.Sprintf("%sI need an image to create your coin. Reply with a picture attached and I'll take it from there!", atPrefix(handle))
}

// ComposeFailureReply reports a failed creation attempt.
func ComposeFailureReply(handle string) string {
	return fmt.Sprintf("%sSomething went wrong creating your coin. Please try again later.", atPrefix(handle))
}

func atPrefix(handle string) string {
	if handle == "" {
		return ""
	}
	return "@" + handle + " "
}
