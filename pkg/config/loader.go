package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load carrega a configuração na seguinte ordem de precedência:
// arquivo YAML (quando path não é vazio) → variáveis de ambiente → defaults.
// Ao final a configuração é validada.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	// O mesmo documento é decodificado em um mapa bruto para registrar quais
	// chaves o YAML realmente definiu: um `false` explícito é indistinguível
	// do zero value na struct e seria sobrescrito pelo envDefault.
	var definidos map[string]interface{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler arquivo de configuração: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("erro ao interpretar YAML: %w", err)
		}
		if err := yaml.Unmarshal(data, &definidos); err != nil {
			return nil, fmt.Errorf("erro ao interpretar YAML: %w", err)
		}
	}

	if err := loadEnv(cfg, definidos); err != nil {
		return nil, err
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FromEnv carrega a configuração apenas de variáveis de ambiente.
func FromEnv() (*Config, error) {
	return Load("")
}

// loadEnv preenche a struct com valores de variáveis de ambiente baseado
// nas tags "env" e "envDefault". Valores definidos no YAML (rastreados pelo
// mapa) não são sobrescritos por defaults, apenas por variáveis presentes.
func loadEnv(config interface{}, definidos map[string]interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config deve ser um ponteiro para struct")
	}
	return loadStruct(val.Elem(), definidos)
}

func loadStruct(val reflect.Value, definidos map[string]interface{}) error {
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !field.CanSet() {
			continue
		}

		chave := yamlKey(fieldType)

		// Structs aninhadas são processadas recursivamente
		if field.Kind() == reflect.Struct {
			sub, _ := definidos[chave].(map[string]interface{})
			if err := loadStruct(field, sub); err != nil {
				return err
			}
			continue
		}

		envTag := fieldType.Tag.Get("env")
		defaultTag := fieldType.Tag.Get("envDefault")
		if envTag == "" {
			continue
		}

		envValue := os.Getenv(envTag)

		// Default só é aplicado quando o campo está zerado e o YAML não o
		// definiu explicitamente
		if envValue == "" {
			_, veioDoYAML := definidos[chave]
			if defaultTag != "" && field.IsZero() && !veioDoYAML {
				envValue = defaultTag
			} else {
				continue
			}
		}

		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("erro ao definir campo %s a partir de %s=%q: %w",
				fieldType.Name, envTag, envValue, err)
		}
	}

	return nil
}

// yamlKey extrai o nome da chave YAML do campo, sem opções (",omitempty").
func yamlKey(field reflect.StructField) string {
	tag := field.Tag.Get("yaml")
	if tag == "" {
		return strings.ToLower(field.Name)
	}
	return strings.Split(tag, ",")[0]
}

func setFieldValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	default:
		return fmt.Errorf("tipo de campo não suportado: %s", field.Kind())
	}
	return nil
}
