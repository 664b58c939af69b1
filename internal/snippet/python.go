package snippet

import (
	"encoding/json"
	"strings"

	"api-relay-go/internal/model"
)

// Python renders d as a script using the requests library. A JSON body is
// sent with json=, anything else with data=.
func Python(d model.Draft) string {
	var b strings.Builder
	b.WriteString("import requests\nimport json\n\n")
	b.WriteString("url = " + quote(d.FullURL()) + "\n\n")
	b.WriteString("headers = " + headerObject(d, "") + "\n")

	bodyArg := ""
	if includesBody(d) {
		if d.EffectiveBodyType() == model.BodyJSON && json.Valid([]byte(d.Body)) {
			b.WriteString("\npayload = json.loads(" + quote(d.Body) + ")\n")
			bodyArg = "json=payload"
		} else {
			b.WriteString("\npayload = " + quote(d.Body) + "\n")
			bodyArg = "data=payload"
		}
	}

	b.WriteString("\ntry:\n")
	b.WriteString("    response = requests." + strings.ToLower(d.NormalizedMethod()) + "(\n")
	b.WriteString("        url,\n")
	b.WriteString("        headers=headers,\n")
	if bodyArg != "" {
		b.WriteString("        " + bodyArg + ",\n")
	}
	b.WriteString(`    )

    print(f"Status: {response.status_code}")
    print(f"Data: {response.json()}")

except requests.exceptions.RequestException as error:
    print(f"Error: {error}")`)
	return b.String()
}
