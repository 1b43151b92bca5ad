package prompt

import "fmt"

// GetSystemPrompt asks for five '|' separated sections in a fixed order.
// The reply parser in domain/analysis depends on that order.
func GetSystemPrompt() string {
	return `You are a medical imaging specialist analyzing brain scans for tumors.
Your response MUST begin by clearly stating:
1. Whether a tumor is present (True/False)
2. The type of tumor if present (or 'None' if no tumor)
3. Your confidence level (High/Medium/Low)

After this mandatory opening, provide:
4. Detailed analysis of the scan
5. Medical recommendations

Format your response with these 5 sections separated by '|' characters`
}

// GetUserPrompt is the text part sent next to the image.
func GetUserPrompt() string {
	return "Analyze this brain scan for tumors."
}

// ImageDataURL wraps base64 image bytes in a data URL. Uploads are not
// inspected, so the media type is always declared as PNG.
func ImageDataURL(imageBase64 string) string {
	return fmt.Sprintf("data:image/png;base64,%s", imageBase64)
}
