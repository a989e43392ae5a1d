package action

import "fmt"

// EncodeSendPDF tags a generated document for transport delivery.
func EncodeSendPDF(path string) string {
	return markerSendPDF + path
}

// EncodeConfirmLeave tags a proposed leave request awaiting confirmation.
func EncodeConfirmLeave(token, summary string) string {
	return fmt.Sprintf("%s%s|%s", markerConfirmLeave, token, summary)
}

// EncodeConfirmOnboard tags a proposed onboarding awaiting confirmation.
func EncodeConfirmOnboard(token, summary string) string {
	return fmt.Sprintf("%s%s|%s", markerConfirmOnboard, token, summary)
}
