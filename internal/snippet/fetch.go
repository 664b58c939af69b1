package snippet

import (
	"strings"

	"api-relay-go/internal/model"
)

// TypeScript renders d as a typed fetch helper with a usage example.
func TypeScript(d model.Draft) string {
	var b strings.Builder
	b.WriteString(`interface RequestOptions {
  method: string;
  headers: Record<string, string>;
  body?: string;
}

interface ApiResponse<T> {
  data: T;
  status: number;
  headers: Headers;
}

async function makeRequest<T = unknown>(): Promise<ApiResponse<T>> {
`)
	writeFetchOptions(&b, d, ": RequestOptions")
	b.WriteString(`
  const response = await fetch(url, options);
  const data = await response.json() as T;

  return {
    data,
    status: response.status,
    headers: response.headers,
  };
}

// Usage
makeRequest()
  .then((response) => {
    console.log("Status:", response.status);
    console.log("Data:", response.data);
  })
  .catch((error) => {
    console.error("Error:", error);
  });`)
	return b.String()
}

// JavaScript renders d as a fetch call that logs the result.
func JavaScript(d model.Draft) string {
	var b strings.Builder
	b.WriteString("async function makeRequest() {\n")
	writeFetchOptions(&b, d, "")
	b.WriteString(`
  try {
    const response = await fetch(url, options);
    const data = await response.json();

    console.log("Status:", response.status);
    console.log("Data:", data);

    return { data, status: response.status };
  } catch (error) {
    console.error("Error:", error);
    throw error;
  }
}

// Execute the request
makeRequest();`)
	return b.String()
}

// writeFetchOptions writes the url constant and the fetch options object.
func writeFetchOptions(b *strings.Builder, d model.Draft, typeAnnotation string) {
	b.WriteString("  const url = " + quote(d.FullURL()) + ";\n\n")
	b.WriteString("  const options" + typeAnnotation + " = {\n")
	b.WriteString("    method: " + quote(d.NormalizedMethod()) + ",\n")
	b.WriteString("    headers: " + headerObject(d, "    ") + ",\n")
	if includesBody(d) {
		b.WriteString("    body: " + quote(d.Body) + ",\n")
	}
	b.WriteString("  };\n")
}
