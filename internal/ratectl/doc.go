// Package ratectl implements the encoder's rate control: the per-frame bit
// budget, the quantizer index search in its budget-targeted (ABR) and
// quality-targeted (VBR) forms, the decision whether to resend quantizer
// indices, and the stereo budget split.
package ratectl
