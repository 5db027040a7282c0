package render

import rl "github.com/gen2brain/raylib-go/raylib"

// The lit shader does a hemispheric light (sky from lightDir, dim ground bounce) plus
// an emissive term carrying the scene's material color.
const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform float lightIntensity;
uniform vec3 emissive;
out vec4 finalColor;
void main() {
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  float hemi = 0.5 + 0.5 * dot(N, L);
  vec3 sky = vec3(1.0, 0.98, 0.95);
  vec3 ground = vec3(0.15, 0.15, 0.18);
  vec3 diffuse = colDiffuse.rgb * mix(ground, sky, hemi) * lightIntensity;
  vec3 V = normalize(viewPos - fragPosition);
  float spec = pow(max(dot(N, normalize(L + V)), 0.0), 48.0) * 0.3 * lightIntensity;
  finalColor = vec4(diffuse + emissive + vec3(spec), colDiffuse.a);
}
`
)

// shading is the per-frame input to the lit shader.
type shading struct {
	viewPos   [3]float32
	lightDir  [3]float32
	intensity float32
	emissive  [3]float32
}

func loadLitShader() rl.Shader {
	return rl.LoadShaderFromMemory(litVS, litFS)
}

// apply sets the shader uniforms (cgo-safe: local slices).
func (s shading) apply(shader rl.Shader) {
	if !rl.IsShaderValid(shader) {
		return
	}
	viewPos := []float32{s.viewPos[0], s.viewPos[1], s.viewPos[2]}
	lightDir := []float32{s.lightDir[0], s.lightDir[1], s.lightDir[2]}
	emissive := []float32{s.emissive[0], s.emissive[1], s.emissive[2]}
	if loc := rl.GetShaderLocation(shader, "viewPos"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, viewPos, rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightDir"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, lightDir, rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "emissive"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, emissive, rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightIntensity"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{s.intensity}, rl.ShaderUniformFloat)
	}
}
