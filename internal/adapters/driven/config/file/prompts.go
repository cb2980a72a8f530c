package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/clinirag/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk,
// falling back to embedded defaults.
//
// Files are only created on first Load, not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// DefaultClinicalAnswerPrompt is the built-in answer template.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const DefaultClinicalAnswerPrompt = `Tu es un **Psychiatre spécialisé en troubles de l’humeur**.
Ton rôle :
1. **Recueillir** : Âge, sexe, antécédents médicaux/familiaux.
2. **Évaluer** : Symptômes (critères DSM-5/ICD-10), durée, impact sur la vie quotidienne.
3. **Diagnostiquer** : Dépression légère/moderée/sévère, trouble bipolaire, etc.
4. **Orienter** : Vers un psychiatre en présentiel si risque suicidaire ou cas complexe.

### **Contexte Scientifique** :
{context}

### **Historique Conversationnel** :
{chat_history}

### **Patient** : {question}

### **Réponse Structurée** (en Markdown) :
1. **Évaluation** :
   - Symptômes clés : [liste]
   - Échelle PHQ-9/GAD-7 (si applicable) : [score estimé]
2. **Hypothèse Diagnostique** :
   - [Diagnostic préliminaire + critères]
3. **Recommandations** :
   - Consultation en présentiel : [Oui/Non]
   - Ressources : [Lignes d’écoute, centres spécialisés]
4. **Disclaimer** : *"Ceci n’est pas un avis médical définitif. Consultez un professionnel."*`

var defaultPrompts = map[string]string{
	driven.PromptClinicalAnswer: DefaultClinicalAnswerPrompt,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.clinirag/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// Cached values are returned first, then the file on disk, then the
// embedded default.
func (s *PromptStore) Load(name string) (string, error) {
	if err := s.Init(); err != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", err)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// No lock held during I/O
	prompt, err := s.loadFromFile(name)
	if err != nil || prompt == "" {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		if err == nil {
			err = fmt.Errorf("prompt file is empty")
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Init creates the prompt directory and default files if needed.
// Load calls it implicitly.
func (s *PromptStore) Init() error {
	s.initOnce.Do(s.initialise)
	return s.initErr
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Never overwrite user edits
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	content := `# clinirag prompts

This directory contains the prompt template used to generate answers.

## Files

- ` + "`clinical_answer.txt`" + ` - Role, answer structure and disclaimer

## Placeholders

The template must keep these literal placeholders:
- ` + "`{context}`" + ` - Retrieved passages, most relevant first
- ` + "`{chat_history}`" + ` - Previous exchanges of the conversation
- ` + "`{question}`" + ` - The current question

Edits are picked up automatically while chat or the MCP server is running.
`
	return os.WriteFile(path, []byte(content), 0600)
}
